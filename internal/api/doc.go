// Package api handles incoming HTTP requests for the questionnaire, request
// validation and response formatting. It adapts HTTP to the assessment
// service: handlers never touch storage or the scoring engine directly, and
// errors are translated to status codes and sanitized messages in errors.go.
package api
