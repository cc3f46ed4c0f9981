package swagger

import "github.com/swaggo/swag"

// Paths are relative to basePath; /health and /metrics are served at the root.
const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admissions CRM API",
        "description": "Survey coverage analytics, roster and enrollment management for the admissions CRM",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "ServiceToken": {"type": "apiKey", "name": "X-SERVICE-TOKEN", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Dashboard operator sessions"},
        {"name": "Bot", "description": "Endpoints called by the survey bot"},
        {"name": "Intake", "description": "Admissions and academy forms sent by the intake bot"},
        {"name": "Roster", "description": "Student roster"},
        {"name": "Enrollments", "description": "Declared enrollment totals"},
        {"name": "Analytics", "description": "Coverage reports and intake breakdowns"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current operator profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the presented token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/bot2/surveys/submit": {
            "post": {
                "tags": ["Bot"],
                "summary": "Record a survey response from the Telegram bot",
                "security": [{"ServiceToken": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SurveySubmission"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Roster missing or invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Missing or invalid service token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bot1/admissions-2026/submit": {
            "post": {
                "tags": ["Intake"],
                "summary": "Record an admissions 2026 application from the intake bot",
                "security": [{"ServiceToken": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdmissionSubmission"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload, region or catalog reference", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Missing or invalid service token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bot1/polito-academy/submit": {
            "post": {
                "tags": ["Intake"],
                "summary": "Record a Polito Academy request from the intake bot",
                "security": [{"ServiceToken": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AcademySubmission"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload, region or catalog reference", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Missing or invalid service token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/roster/import": {
            "post": {
                "tags": ["Roster"],
                "summary": "Upsert roster rows from a CSV upload or JSON body",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "All rows imported", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "207": {"description": "Some rows rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bot2/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List declared enrollment totals",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "program_id", "in": "query", "type": "string"},
                    {"name": "is_active", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Create or replace an enrollment total",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentTotalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bot2/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "List roster entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "program_id", "in": "query", "type": "string"},
                    {"name": "course_year", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bot2/surveys": {
            "get": {
                "tags": ["Surveys"],
                "summary": "List survey responses",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/items": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog items",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/programs": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List programs",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/bot2/course-year-coverage": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Coverage per course year",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "course_year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"type": "array", "items": {"$ref": "#/definitions/CourseYearCoverage"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/bot2/program-coverage": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Coverage per program",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "course_year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"type": "array", "items": {"$ref": "#/definitions/ProgramCoverage"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/bot2/program-course-matrix": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Program by course year coverage matrix",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "course_year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"$ref": "#/definitions/ProgramCourseMatrix"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/bot2/program-details-by-year": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Program coverage with employment split for one course year",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "course_year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"type": "array", "items": {"$ref": "#/definitions/ProgramYearDetail"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/bot2/enrollments-overview": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Overall, per year and per bucket coverage",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "course_year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"$ref": "#/definitions/EnrollmentOverview"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/bot2/enrollments-overview/export": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Download the overview buckets as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "campaign", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "CSV or PDF attachment", "schema": {"type": "file"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/bot2/academic-years": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Academic years with enrollment totals",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "campaign", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"type": "array", "items": {"type": "string"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/admissions-2026/by-direction": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Admission applications grouped by direction",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"type": "array", "items": {"$ref": "#/definitions/BreakdownRow"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/admissions-2026/by-track": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Admission applications grouped by track",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"type": "array", "items": {"$ref": "#/definitions/BreakdownRow"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/polito-academy/by-subject": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Academy requests grouped by subject",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date-time"}
                ],
                "responses": {
                    "200": {"description": "OK, report body without envelope; meta in X-Campaign, X-Academic-Year and X-Processing-Time-Ms headers", "schema": {"type": "array", "items": {"$ref": "#/definitions/BreakdownRow"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/system/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "In-process counters snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SurveySubmission": {
            "type": "object",
            "required": ["student_external_id"],
            "properties": {
                "student_external_id": {"type": "string"},
                "telegram_user_id": {"type": "integer"},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female", "other", "unspecified"]},
                "phone": {"type": "string"},
                "region_id": {"type": "string"},
                "program_id": {"type": "string"},
                "course_year": {"type": "integer"},
                "survey_campaign": {"type": "string"},
                "employment_status": {"type": "string"},
                "employment_company": {"type": "string"},
                "employment_role": {"type": "string"},
                "suggestions": {"type": "string"},
                "consents": {"type": "object"},
                "answers": {"type": "object"}
            }
        },
        "AdmissionSubmission": {
            "type": "object",
            "required": ["telegram_user_id", "direction_id"],
            "properties": {
                "telegram_user_id": {"type": "integer"},
                "telegram_chat_id": {"type": "integer"},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "region_id": {"type": "string"},
                "region_code": {"type": "string"},
                "status": {"type": "string", "enum": ["new", "submitted", "in_progress", "approved", "rejected"]},
                "answers": {"type": "object"},
                "direction_id": {"type": "string"},
                "track_id": {"type": "string"}
            }
        },
        "AcademySubmission": {
            "type": "object",
            "required": ["telegram_user_id"],
            "properties": {
                "telegram_user_id": {"type": "integer"},
                "telegram_chat_id": {"type": "integer"},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "region_id": {"type": "string"},
                "region_code": {"type": "string"},
                "status": {"type": "string", "enum": ["new", "submitted", "in_progress", "approved", "rejected"]},
                "answers": {"type": "object"},
                "subject_id": {"type": "string"}
            }
        },
        "EnrollmentTotalRequest": {
            "type": "object",
            "required": ["program_id", "course_year", "student_count", "academic_year"],
            "properties": {
                "program_id": {"type": "string"},
                "course_year": {"type": "integer"},
                "student_count": {"type": "integer"},
                "academic_year": {"type": "string"},
                "campaign": {"type": "string"},
                "is_active": {"type": "boolean"},
                "notes": {"type": "string"}
            }
        },
        "CourseYearCoverage": {
            "type": "object",
            "properties": {
                "course_year": {"type": "integer"},
                "total": {"type": "integer"},
                "responded": {"type": "integer"},
                "coverage_percent": {"type": "number"}
            }
        },
        "ProgramCoverage": {
            "type": "object",
            "properties": {
                "program_id": {"type": "string"},
                "program_name": {"type": "string"},
                "total": {"type": "integer"},
                "responded": {"type": "integer"},
                "coverage_percent": {"type": "number"}
            }
        },
        "ProgramCourseMatrix": {
            "type": "object",
            "properties": {
                "years": {"type": "array", "items": {"type": "integer"}},
                "programs": {"type": "array", "items": {"type": "object"}},
                "cells": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ProgramYearDetail": {
            "type": "object",
            "properties": {
                "program_id": {"type": "string"},
                "program_name": {"type": "string"},
                "total": {"type": "integer"},
                "responded": {"type": "integer"},
                "coverage_percent": {"type": "number"},
                "employed": {"type": "integer"},
                "unemployed": {"type": "integer"}
            }
        },
        "EnrollmentOverview": {
            "type": "object",
            "properties": {
                "total_students": {"type": "integer"},
                "total_responded": {"type": "integer"},
                "coverage_percent": {"type": "number"},
                "by_year": {"type": "array", "items": {"$ref": "#/definitions/CourseYearCoverage"}},
                "by_program": {"type": "array", "items": {"type": "object"}}
            }
        },
        "BreakdownRow": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "value": {"type": "integer"},
                "direction_id": {"type": "string"},
                "track_id": {"type": "string"},
                "subject_id": {"type": "string"}
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
                "status": {"type": "integer"}
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
