package objectstore

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"report-sync/core/utils"
	"report-sync/feature/report/models"
)

// decodeReport reads a report document written by any client. Numbers may be
// stored as strings, flags as 0/1 and the id may only be present in the key.
func decodeReport(data []byte, key string) (models.Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return models.Report{}, err
	}
	if raw == nil {
		return models.Report{}, errNotObject
	}

	r := models.Report{
		ID:          utils.ToString(raw["id"]),
		UserID:      utils.ToString(raw["userId"]),
		Description: utils.ToString(raw["description"]),
		Name:        utils.ToString(raw["name"]),
		Phone:       utils.ToString(raw["phone"]),
		ImageURL:    utils.ToString(raw["imageUrl"]),
		IsLost:      utils.ToBool(raw["isLost"]),
		Location:    utils.ToStringPtr(raw["location"]),
		Lat:         utils.ToFloat64Ptr(raw["lat"]),
		Lng:         utils.ToFloat64Ptr(raw["lng"]),
		CreatedAt:   utils.ToInt64(raw["createdAt"]),
	}
	if r.ID == "" {
		r.ID = strings.TrimSuffix(path.Base(key), docExtension)
	}
	return r, nil
}
