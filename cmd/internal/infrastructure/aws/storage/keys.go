package storage

import (
	"strconv"

	"github.com/google/uuid"
)

// Every object of a tenant lives under its own prefix.
func tenantPrefix(tenantID int64) string {
	return "tenants/" + strconv.FormatInt(tenantID, 10) + "/"
}

// InspectionPhotoKey builds a fresh key for a photo of an inspection item.
// ext includes the leading dot.
func InspectionPhotoKey(tenantID, inspectionID int64, ext string) string {
	return tenantPrefix(tenantID) + "inspections/" + strconv.FormatInt(inspectionID, 10) + "/" + uuid.NewString() + ext
}

func LogoKey(tenantID int64, ext string) string {
	return tenantPrefix(tenantID) + "logo/" + uuid.NewString() + ext
}
