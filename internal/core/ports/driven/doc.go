// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: turns fragments and queries into vectors
//   - IndexStore: the Vector Index Store (file pair, postgres or memory)
//   - TokenCounter: token counts for the budgets
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: without it, answers and summaries return the ranked
//     fragments only
//   - DocumentStore: without it, no catalogue is kept
//   - PromptStore: without it, built-in prompts are used
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
