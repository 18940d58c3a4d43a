package schema

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcanvas/pkg/model"
)

// DocumentVersion is the OpenAPI version emitted by Document.
const DocumentVersion = "3.0.3"

// SubmissionPath returns the endpoint that accepts responses for formID.
func SubmissionPath(formID string) string {
	return "/forms/" + formID + "/responses"
}

// Document wraps the submission schema of form in an OpenAPI document
// describing POST /forms/{id}/responses.
func Document(form model.FormModel) *openapi3.T {
	name := componentName(form.FormID)
	body := SubmissionSchema(form)

	title := form.Title
	if title == "" {
		title = form.FormID
	}

	doc := &openapi3.T{
		OpenAPI: DocumentVersion,
		Info: &openapi3.Info{
			Title:   title,
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				name: openapi3.NewSchemaRef("", body),
			},
		},
	}

	op := openapi3.NewOperation()
	op.OperationID = "submit_" + strings.ReplaceAll(form.FormID, "-", "_")
	op.Summary = fmt.Sprintf("Submit a response to %s", title)
	op.Description = form.Description
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+name, body)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusCreated, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Response accepted"),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission failed validation"),
		}),
	)
	doc.AddOperation(SubmissionPath(form.FormID), http.MethodPost, op)
	return doc
}

func componentName(formID string) string {
	var out strings.Builder
	upper := true
	for _, r := range formID {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			upper = true
		case upper:
			out.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			out.WriteRune(r)
		}
	}
	return out.String() + "Submission"
}
