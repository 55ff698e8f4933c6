// Package cli implements the interactive Matchy terminal client.
//
// The REPL dispatches line-oriented commands to feature services:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate and connect the realtime channel
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - feeds                  — swipe through candidate profiles
//	  - matches [search]       — list matches, optionally filtered by name
//	  - chat <matchId>         — open a conversation
//	  - notifications          — show notifications and mark them read
//	  - profile [...]          — show or edit the own profile
//	  - report <userId>        — file a report
//	  - block <userId>         — block a user
//	  - logout                 — close the session
//	  - exit | quit            — leave the program
//
// Command handlers print their own errors; the loop never aborts on a
// failed command.
package cli
