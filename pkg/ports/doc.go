/*
Package ports defines the driven ports (interfaces) of the calculator.

These interfaces decouple session orchestration from storage so the same
session manager serves the REPL, the HTTP API and the MCP server.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading session Snapshots.
*/
package ports
