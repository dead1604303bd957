package models

import (
	"encoding/json"
)

// sortableTime has a fixed width so timestamps compare correctly as strings.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// field pairs the internal (camelCase) name of an attribute with the
// snake_case name the remote backend and its database use.
type field struct {
	internal string
	remote   string
	sortable bool
}

var fieldTable = []field{
	{"id", "id", true},
	{"company", "company", true},
	{"position", "position", true},
	{"applicationDate", "application_date", true},
	{"status", "status", true},
	{"location", "location", true},
	{"salary", "salary", true},
	{"contactPerson", "contact_person", false},
	{"contactEmail", "contact_email", false},
	{"contactPhone", "contact_phone", false},
	{"jobDescription", "job_description", false},
	{"notes", "notes", false},
	{"createdAt", "created_at", true},
	{"updatedAt", "updated_at", true},
}

var (
	byInternal = map[string]field{}
	byRemote   = map[string]field{}
)

func init() {
	for _, f := range fieldTable {
		byInternal[f.internal] = f
		byRemote[f.remote] = f
	}
}

func lookup(name string) (field, bool) {
	if f, ok := byInternal[name]; ok {
		return f, true
	}
	f, ok := byRemote[name]
	return f, ok
}

// RemoteName returns the snake_case name for a field given in either convention.
func RemoteName(name string) (string, bool) {
	f, ok := lookup(name)
	return f.remote, ok
}

// InternalName returns the camelCase name for a field given in either convention.
func InternalName(name string) (string, bool) {
	f, ok := lookup(name)
	return f.internal, ok
}

// SortField resolves an orderBy value to its internal name, if the field can be sorted on.
func SortField(name string) (string, bool) {
	f, ok := lookup(name)
	if !ok || !f.sortable {
		return "", false
	}
	return f.internal, true
}

// ToRemote translates an internally named payload to the remote naming.
// Unknown keys and nil values are dropped; empty strings too when omitEmpty is set.
func ToRemote(in map[string]interface{}, omitEmpty bool) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		f, ok := byInternal[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" && omitEmpty {
			continue
		}
		out[f.remote] = v
	}
	return out
}

// ToInternal translates a remote payload to the internal naming.
// Keys already in the internal naming are accepted; the remote spelling wins when both are present.
func ToInternal(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if f, ok := byInternal[k]; ok {
			if _, taken := out[f.internal]; !taken {
				out[f.internal] = v
			}
		}
	}
	for k, v := range in {
		if f, ok := byRemote[k]; ok && v != nil {
			out[f.internal] = v
		}
	}
	return out
}

// ToMap converts v to a generic map through its JSON form.
func ToMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap fills dst from a generic map through its JSON form.
func FromMap(m map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// FieldValue returns the value of a field as a sortable string.
func (a Application) FieldValue(name string) string {
	internal, _ := InternalName(name)
	switch internal {
	case "id":
		return a.ID
	case "company":
		return a.Company
	case "position":
		return a.Position
	case "applicationDate":
		return a.ApplicationDate
	case "status":
		return string(a.Status)
	case "location":
		return a.Location
	case "salary":
		return a.Salary
	case "contactPerson":
		return a.ContactPerson
	case "contactEmail":
		return a.ContactEmail
	case "contactPhone":
		return a.ContactPhone
	case "jobDescription":
		return a.JobDescription
	case "notes":
		return a.Notes
	case "createdAt":
		return a.CreatedAt.UTC().Format(sortableTime)
	case "updatedAt":
		return a.UpdatedAt.UTC().Format(sortableTime)
	}
	return ""
}
