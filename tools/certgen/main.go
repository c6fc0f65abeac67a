// Package main writes a self-signed certificate for running the DevHub dev
// backend over HTTPS:
//
//	go run ./tools/certgen -dir certs -hosts localhost,127.0.0.1
//	devhub-server -tls-cert certs/server.crt -tls-key certs/server.key
//	devhub --api https://localhost:8080/api/v1/ --ca-cert certs/server.crt whoami
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/DevHub/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	days := fs.Int("days", 365, "validity in days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *days <= 0 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}

	var list []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			list = append(list, h)
		}
	}

	certPath, keyPath, err := certgen.WriteDevCertificate(*dir, list, time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Certificate: %s\nKey:         %s\n", certPath, keyPath)
	return nil
}
