// Package services implements the application core: document
// ingestion, passage retrieval and the tool-calling answer loop.
// Services depend only on ports and domain types.
package services
