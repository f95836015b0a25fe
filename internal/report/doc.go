// Package report serializes run results.
//
// Three forms are produced:
//   - Canonical JSON (MarshalCanonical) with a domain separated SHA-256
//     Digest. Equal results give equal bytes.
//   - TestNG results XML (WriteXML) for consumers that query
//     /testng-results/@failed.
//   - Styled terminal text (RenderText).
package report
