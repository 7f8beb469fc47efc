// Package common contains shared constants, sentinel errors and small helpers
// used across taskboard components.
package common

// DocumentTypePDF is the only MIME type accepted for task attachments.
const DocumentTypePDF = "application/pdf"

// MaxDocumentsPerTask caps the number of documents attached to one task.
const MaxDocumentsPerTask = 3
