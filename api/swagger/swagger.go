package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NAAC SAR API",
        "description": "Self-assessment report submissions, metric scoring and accreditation grade rollups",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Criteria Responses", "description": "Per-criterion submissions, retrieval and metric scores"},
        {"name": "IIQA", "description": "Institutional information for quality assessment"},
        {"name": "Extended Profile", "description": "Yearly institutional counts"},
        {"name": "Criteria", "description": "Criteria master hierarchy"},
        {"name": "Scores", "description": "Rollups, summary, radar, recompute and export"}
    ],
    "paths": {
        "/criteria{criterion}/createResponse{suffix}": {
            "post": {
                "tags": ["Criteria Responses"],
                "summary": "Submit a criterion response, e.g. /criteria3/createResponse313",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "criterion", "in": "path", "required": true, "type": "integer"},
                    {"name": "suffix", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or out of window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No IIQA form or criteria not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate entry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/criteria{criterion}/updateResponse{suffix}/{slNo}": {
            "put": {
                "tags": ["Criteria Responses"],
                "summary": "Update a stored response by serial number",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "criterion", "in": "path", "required": true, "type": "integer"},
                    {"name": "suffix", "in": "path", "required": true, "type": "string"},
                    {"name": "slNo", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/criteria{criterion}/score{digits}": {
            "get": {
                "tags": ["Criteria Responses"],
                "summary": "Compute and store a metric score, e.g. /criteria3/score313",
                "parameters": [
                    {"name": "criterion", "in": "path", "required": true, "type": "integer"},
                    {"name": "digits", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Reference data missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/criteria{criterion}/getResponsesByCriteriaCode/{criteriaCode}": {
            "get": {
                "tags": ["Criteria Responses"],
                "summary": "List stored responses for a criteria code",
                "parameters": [
                    {"name": "criterion", "in": "path", "required": true, "type": "integer"},
                    {"name": "criteriaCode", "in": "path", "required": true, "type": "string"},
                    {"name": "session", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/iiqa/createIIQAForm": {
            "post": {
                "tags": ["IIQA"],
                "summary": "Create or replace the IIQA form",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateIIQARequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/iiqa/sessions": {
            "get": {"tags": ["IIQA"], "summary": "List IIQA sessions", "responses": {"200": {"description": "OK"}}}
        },
        "/iiqa/latest": {
            "get": {"tags": ["IIQA"], "summary": "Latest IIQA form with details", "responses": {"200": {"description": "OK"}, "404": {"description": "No IIQA form found"}}}
        },
        "/extendedprofile/createExtendedProfile": {
            "post": {
                "tags": ["Extended Profile"],
                "summary": "Create or update the extended profile for the IIQA year",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExtendedProfileRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Year mismatch"}}
            }
        },
        "/extendedprofile": {
            "get": {
                "tags": ["Extended Profile"],
                "summary": "List extended profiles",
                "parameters": [{"name": "year", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/criteria": {
            "get": {
                "tags": ["Criteria"],
                "summary": "List criteria",
                "parameters": [{"name": "criterion_id", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Criteria"],
                "summary": "Create criteria",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CriteriaMasterRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate entry"}}
            }
        },
        "/criteria/{code}": {
            "get": {
                "tags": ["Criteria"],
                "summary": "Get criteria by dotted code",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Criteria not found"}}
            }
        },
        "/criteria/{id}": {
            "put": {
                "tags": ["Criteria"],
                "summary": "Update criteria",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CriteriaMasterRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Criteria"],
                "summary": "Delete criteria",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/scores": {
            "get": {
                "tags": ["Scores"],
                "summary": "List stored scores",
                "parameters": [
                    {"name": "session", "in": "query", "type": "integer"},
                    {"name": "criterion_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scores/subcriteria/{code}": {
            "get": {"tags": ["Scores"], "summary": "Roll up a sub-criterion", "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/scores/criteria/{id}": {
            "get": {"tags": ["Scores"], "summary": "Roll up a criterion", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/scores/total": {
            "get": {"tags": ["Scores"], "summary": "Institutional CGPA and letter grade", "responses": {"200": {"description": "OK"}}}
        },
        "/scores/summary": {
            "get": {"tags": ["Scores"], "summary": "College summary against the desired grade", "responses": {"200": {"description": "OK"}, "404": {"description": "No IIQA form found"}}}
        },
        "/scores/radar": {
            "get": {"tags": ["Scores"], "summary": "Criterion radar chart", "responses": {"200": {"description": "OK"}}}
        },
        "/scores/recompute": {
            "post": {
                "tags": ["Scores"],
                "summary": "Queue a bulk recompute",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RecomputeRequest"}}],
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/scores/recompute/{id}": {
            "get": {"tags": ["Scores"], "summary": "Recompute job status", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/scores/export": {
            "get": {
                "tags": ["Scores"],
                "summary": "Export session scores as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "session", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "Attachment"}}
            }
        }
    },
    "definitions": {
        "CreateIIQARequest": {
            "type": "object",
            "properties": {
                "institution_id": {"type": "integer"},
                "session_start_year": {"type": "integer"},
                "session_end_year": {"type": "integer"},
                "year_filled": {"type": "integer"},
                "naac_cycle": {"type": "integer"},
                "desired_grade": {"type": "string", "enum": ["A++", "A+", "A", "B++", "B+", "B", "C", "D"]},
                "has_mou": {"type": "boolean"},
                "mou_file_url": {"type": "string"},
                "departments": {"type": "array", "items": {"type": "object"}}
            },
            "required": ["institution_id", "session_start_year", "session_end_year", "year_filled", "naac_cycle", "desired_grade", "has_mou", "departments"]
        },
        "CreateExtendedProfileRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "number_of_courses_offered": {"type": "integer"},
                "total_students": {"type": "integer"},
                "full_time_teachers": {"type": "integer"},
                "sanctioned_posts": {"type": "integer"}
            },
            "required": ["year"]
        },
        "CriteriaMasterRequest": {
            "type": "object",
            "properties": {
                "criteria_code": {"type": "string"},
                "criterion_name": {"type": "string"},
                "sub_criterion_name": {"type": "string"},
                "sub_sub_criterion_name": {"type": "string"},
                "criteria_type": {"type": "string", "enum": ["Qn", "Ql"]}
            },
            "required": ["criteria_code", "criterion_name"]
        },
        "RecomputeRequest": {
            "type": "object",
            "properties": {
                "codes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "field": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"},
                "request_id": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
