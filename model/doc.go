// Package model defines the adapter layer between rendered prompts and
// provider SDKs. Subpackages convert core.RenderedPrompt values into the
// request shapes of concrete APIs (OpenAI Chat Completions, Anthropic
// Messages) and execute them.
package model
