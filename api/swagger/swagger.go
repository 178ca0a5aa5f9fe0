package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Thesis Defense API",
        "description": "Evaluation aggregation and access control for thesis defenses",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Evaluations", "description": "Role-based defense evaluations"},
        {"name": "Scores", "description": "Weighted final score aggregation"},
        {"name": "Summaries", "description": "Role summary documents"},
        {"name": "QnA", "description": "Defense question log"},
        {"name": "Committees", "description": "Committee composition and schedule"},
        {"name": "Exports", "description": "Score sheet downloads"}
    ],
    "paths": {
        "/evaluations": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "List a topic's evaluations",
                "parameters": [
                    {"name": "topicId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Evaluations"],
                "summary": "Submit or replace an evaluation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEvaluationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown criterion or score out of range"},
                    "403": {"description": "Caller does not hold the role on the topic"}
                }
            }
        },
        "/evaluators/{id}/tasks": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "List an evaluator's grading worklist",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "scope", "in": "query", "type": "string", "enum": ["all", "today", "upcoming"]},
                    {"name": "date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/{topicId}/final-score": {
            "get": {
                "tags": ["Scores"],
                "summary": "Aggregate a topic's weighted final score",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/{topicId}/summaries/{role}": {
            "get": {
                "tags": ["Summaries"],
                "summary": "Read a role summary document",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"},
                    {"name": "role", "in": "path", "required": true, "type": "string", "enum": ["supervisor", "reviewer", "council"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No document stored"}
                }
            },
            "put": {
                "tags": ["Summaries"],
                "summary": "Write a role summary document",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"},
                    {"name": "role", "in": "path", "required": true, "type": "string", "enum": ["supervisor", "reviewer", "council"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Caller may not write this role's summary"}
                }
            }
        },
        "/summaries/migrate-legacy": {
            "post": {
                "tags": ["Summaries"],
                "summary": "Promote legacy raw-text summaries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/{topicId}/qna": {
            "get": {
                "tags": ["QnA"],
                "summary": "List a topic's defense questions",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["QnA"],
                "summary": "Append a committee question",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Empty question or questioner not on committee"},
                    "403": {"description": "Caller is not the assigned secretary"}
                }
            }
        },
        "/qna/{id}/answer": {
            "put": {
                "tags": ["QnA"],
                "summary": "Record the student's answer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/{topicId}/secretary-access": {
            "get": {
                "tags": ["QnA"],
                "summary": "Report whether the caller is the assigned secretary",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/{topicId}/committee": {
            "get": {
                "tags": ["Committees"],
                "summary": "List a topic's committee seats",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/{topicId}/session": {
            "get": {
                "tags": ["Committees"],
                "summary": "Read a topic's scheduled defense slot",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/{topicId}/score-sheet": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a topic's score sheet",
                "parameters": [
                    {"name": "topicId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        }
    },
    "definitions": {
        "SubmitEvaluationRequest": {
            "type": "object",
            "properties": {
                "topic_id": {"type": "string"},
                "student_id": {"type": "string"},
                "evaluation_type": {"type": "string", "enum": ["SUPERVISOR", "REVIEWER", "COMMITTEE"]},
                "scores": {"type": "object", "additionalProperties": {"type": "number"}},
                "comments": {"type": "string"}
            },
            "required": ["topic_id", "student_id", "evaluation_type", "scores"]
        },
        "AddQuestionRequest": {
            "type": "object",
            "properties": {
                "topic_id": {"type": "string"},
                "student_id": {"type": "string"},
                "questioner_id": {"type": "string"},
                "question": {"type": "string"}
            },
            "required": ["topic_id", "student_id", "questioner_id", "question"]
        },
        "SetAnswerRequest": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"}
            }
        },
        "FinalScore": {
            "type": "object",
            "properties": {
                "topic_id": {"type": "string"},
                "supervisor_score": {"type": "number"},
                "reviewer_score": {"type": "number"},
                "committee_score": {"type": "number"},
                "final_score": {"type": "number"},
                "status": {"type": "string", "enum": ["PENDING", "INCOMPLETE", "COMPLETED"]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
