package ui

// ASCIIArt is the banner shown on the welcome screen and the about modal
const ASCIIArt = `
  ▄▄▄· ▄▄▄▄▄▄• ▄▌▪
 ▐█ ▀█ •██  █▪██▌██
 ▄█▀▀█  ▐█.▪█▌▐█▌▐█·
 ▐█ ▪▐▌ ▐█▌·▐█▄█▌▐█▌
  ▀  ▀  ▀▀▀  ▀▀▀ ▀▀▀`

// Features summarizes the client for the about modal
var Features = []string{
	"• Terminal chat client for an agent backend",
	"• Streamed responses with markdown rendering",
	"• Health-gated sends with live status",
	"• Knowledge base lookups",
	"• In-conversation fuzzy search",
}

// DefaultSuggestions seeds the welcome screen when no suggestions are configured
var DefaultSuggestions = []string{
	"What can you help me with?",
	"Give me a quick overview of your capabilities",
	"What knowledge bases do you have access to?",
}
