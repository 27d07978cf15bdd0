// Package gemini is an [ai.Provider] for Google's native generateContent
// REST API.
//
// Configuration comes from GEMINI_API_KEY and GEMINI_API_BASE_URL. The key is
// sent in the x-goog-api-key header rather than as a bearer token. A request
// with a JSON response format sets responseMimeType to application/json.
package gemini
