// Package domain contains the core entities of the constitution questionnaire:
// questions and their options, constitution categories, the respondent's answer
// set and the derived category scores. It is independent of storage and transport.
package domain
