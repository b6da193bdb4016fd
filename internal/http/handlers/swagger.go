package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const swaggerUIHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>userhub API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>
      body { margin: 0; background: #f8fafc; }
      #swagger-ui { max-width: 1200px; margin: 0 auto; }
    </style>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: "/docs/openapi.yaml",
        dom_id: "#swagger-ui",
        deepLinking: true,
        presets: [SwaggerUIBundle.presets.apis],
        layout: "BaseLayout"
      });
    </script>
  </body>
</html>`

const openAPISpec = `openapi: 3.0.3
info:
  title: userhub API
  version: "1.0"
paths:
  /api/users:
    get:
      summary: List all users ordered by email
      responses:
        "200":
          description: Users without their bio
          content:
            application/json:
              schema:
                type: array
                items: { $ref: "#/components/schemas/Summary" }
        "500": { $ref: "#/components/responses/Error" }
    post:
      summary: Create a user
      requestBody:
        required: true
        content:
          application/json:
            schema: { $ref: "#/components/schemas/CreateUser" }
      responses:
        "201":
          description: Created
          content:
            application/json:
              schema: { $ref: "#/components/schemas/User" }
        "400": { $ref: "#/components/responses/Error" }
        "409": { $ref: "#/components/responses/Error" }
        "500": { $ref: "#/components/responses/Error" }
  /api/users/{email}:
    parameters:
      - name: email
        in: path
        required: true
        schema: { type: string }
    get:
      summary: Get one user
      responses:
        "200":
          description: The full record
          content:
            application/json:
              schema: { $ref: "#/components/schemas/User" }
        "400": { $ref: "#/components/responses/Error" }
        "404": { $ref: "#/components/responses/Error" }
        "500": { $ref: "#/components/responses/Error" }
    put:
      summary: Replace a user's email, name and bio
      requestBody:
        required: true
        content:
          application/json:
            schema: { $ref: "#/components/schemas/UpdateUser" }
      responses:
        "204": { description: Updated }
        "400": { $ref: "#/components/responses/Error" }
        "404": { $ref: "#/components/responses/Error" }
        "409": { $ref: "#/components/responses/Error" }
        "500": { $ref: "#/components/responses/Error" }
    delete:
      summary: Delete a user
      responses:
        "204": { description: Deleted }
        "400": { $ref: "#/components/responses/Error" }
        "404": { $ref: "#/components/responses/Error" }
        "500": { $ref: "#/components/responses/Error" }
components:
  schemas:
    Summary:
      type: object
      properties:
        email: { type: string, maxLength: 64 }
        name: { type: string, maxLength: 64 }
    User:
      type: object
      properties:
        email: { type: string, maxLength: 64 }
        name: { type: string, maxLength: 64 }
        bio: { type: string, maxLength: 1024 }
    CreateUser:
      type: object
      required: [email, name]
      properties:
        email: { type: string, pattern: '^[^\s@]+@[^\s@]+$' }
        name: { type: string }
        bio: { type: string }
    UpdateUser:
      type: object
      required: [name]
      properties:
        email: { type: string, pattern: '^[^\s@]+@[^\s@]+$' }
        name: { type: string }
        bio: { type: string }
  responses:
    Error:
      description: Error envelope
      content:
        application/json:
          schema:
            type: object
            properties:
              error:
                type: object
                properties:
                  code: { type: string }
                  message: { type: string }
                  requestId: { type: string }
                  details: {}
`

func SwaggerUI(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIHTML))
}

func OpenAPISpec(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/yaml; charset=utf-8", []byte(openAPISpec))
}
