// Package schema derives OpenAPI 3 artefacts from a form model: the JSON
// Schema of a submission, a document describing the submission endpoint, and
// server side validation of submitted payloads. It can also read an existing
// OpenAPI operation and turn its request body into canvas suggestions.
package schema
