// Package commands defines the devhub CLI.
//
// # Commands
//
//   - register       Create an account and log in
//   - login          Log in and store the token pair
//   - logout         Forget the stored session
//   - whoami         Print the current user's profile
//   - token refresh  Mint a new access token from the stored refresh token
//   - search         Search developer profiles
//   - profile        Print a public profile
//   - profile update Change bio, GitHub or LinkedIn URL of the current user
//   - projects       List portfolio projects
//   - experience     List work experience
//   - sync-github    Import public GitHub repositories as projects
//   - shell          Interactive shell (also accepts login)
//
// # Implementation
//
// The root command resolves configuration, builds the credential store, the
// API client and the session manager, and restores the stored session
// before any subcommand runs. logout and token refresh skip the restore:
// they act on the stored credential itself. A 401 from a feature call is treated as an
// expired session: the CLI logs out and asks the user to log in again.
package commands
