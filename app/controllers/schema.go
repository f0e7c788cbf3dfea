package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"tasktracker/app/models"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxBodyBytes bounds request bodies; a task is a title and a flag.
const maxBodyBytes = 64 << 10

var (
	createTaskSchema = jsonschema.MustCompileString("https://tasktracker.local/create-task.json", `{
		"type": "object",
		"required": ["title"],
		"properties": {
			"title": {"type": "string", "pattern": "\\S", "maxLength": 255}
		}
	}`)

	updateTaskSchema = jsonschema.MustCompileString("https://tasktracker.local/update-task.json", `{
		"type": "object",
		"required": ["completed"],
		"properties": {
			"completed": {"type": "boolean"}
		}
	}`)
)

// decodeBody reads a JSON body, checks it against schema and decodes it into dst.
// Every failure is reported as models.ErrInvalidTask.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return models.Invalidf("read body: %v", err)
	}
	defer r.Body.Close()

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return models.Invalidf("invalid JSON body")
	}
	if err := schema.Validate(doc); err != nil {
		return models.Invalidf("%s", schemaMessage(err))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return models.Invalidf("invalid JSON body")
	}
	return nil
}

// schemaMessage flattens a validation error into its leaf messages.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectSchemaMessages(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collectSchemaMessages(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		msg := ve.Message
		if field := strings.TrimPrefix(ve.InstanceLocation, "/"); field != "" {
			msg = field + ": " + msg
		}
		*msgs = append(*msgs, msg)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaMessages(cause, msgs)
	}
}
