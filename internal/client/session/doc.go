// Package session owns the client's authentication state.
//
// A Manager moves between three states:
//
//	Unknown --Restore--> Anonymous <--Login/Register/Logout--> Authenticated
//
// Restore runs at startup and either resumes the stored credential (after
// the backend confirms it through "me/") or clears it. Login stores the
// token pair and then loads the current user; Register validates locally,
// creates the account and logs in with the same username and password.
// Logout clears everything without contacting the backend.
//
// The Manager is the only writer of the stored credential and of the
// in-memory current user. Everything else reads through Reader.
//
// Access tokens are never refreshed behind the caller's back: a feature
// caller that receives a 401 decides what to do, and RefreshAccessToken is
// available for callers that want to mint a new access token explicitly.
package session
