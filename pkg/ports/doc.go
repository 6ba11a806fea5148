/*
Package ports defines the driven ports (interfaces) for the twoway engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various definition sources and to be exposed through
several surfaces (CLI, HTTP, MCP).

# Key Interfaces

  - DefinitionLoader: Responsible for producing a raw machine Definition (file, Redis, memory).
  - Evaluator: The read-only engine surface used by the HTTP and MCP adapters.
*/
package ports
