package openapi

import "maps"

// NewComponents creates Components with the shared error body schema and
// the error responses every JSON endpoint can return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"ErrorResponse": {
				Type: "object",
				Properties: map[string]*Schema{
					"timestamp": {Type: "string", Format: "date-time", Description: "Time the error was produced"},
					"status":    {Type: "integer", Description: "HTTP status code", Example: 400},
					"error":     {Type: "string", Description: "HTTP status text", Example: "Bad Request"},
					"message":   {Type: "string", Description: "Error detail"},
					"path":      {Type: "string", Description: "Request path", Example: "/mutant"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"Unauthorized":       errorResponse("Missing or invalid bearer token"),
			"PayloadTooLarge":    errorResponse("Request body exceeds the configured limit"),
			"InternalError":      errorResponse("Unexpected failure"),
			"ServiceUnavailable": errorResponse("Classification store unavailable"),
		},
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("ErrorResponse")},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
