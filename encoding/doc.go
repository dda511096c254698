// Package encoding embeds parameter maps into request drafts.
//
// Two strategies are provided:
//
//   - JSON: serializes the parameters as a JSON object body
//   - URL: appends the parameters to the query string, arrays as key[]=v items
//
// Both default the Content-Type header only when the draft has none, so a
// header set earlier (by the caller or by a previous encoder) always wins.
//
// Encode coordinates the strategies by Mode:
//
//	err := encoding.Encode(encoding.URLAndJSON, draft, body, query)
package encoding
