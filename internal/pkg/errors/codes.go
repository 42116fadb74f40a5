package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrValidationFailed = New(
		"VALIDATION_FAILED",
		"Request validation failed",
		http.StatusBadRequest,
	)

	ErrInvalidFilter = New(
		"INVALID_FILTER",
		"Invalid filter value",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrReportNotFound = New(
		"REPORT_NOT_FOUND",
		"Report not found",
		http.StatusNotFound,
	)

	ErrInvalidReportID = New(
		"INVALID_REPORT_ID",
		"Invalid report ID",
		http.StatusBadRequest,
	)

	ErrInvalidStatusTransition = New(
		"INVALID_STATUS_TRANSITION",
		"Report status cannot be changed",
		http.StatusConflict,
	)

	ErrInvalidCrimeCategory = New(
		"INVALID_CRIME_CATEGORY",
		"Unknown crime category",
		http.StatusBadRequest,
	)

	ErrInvalidCrimeType = New(
		"INVALID_CRIME_TYPE",
		"Crime type does not belong to the category",
		http.StatusBadRequest,
	)

	ErrLocationOutOfRange = New(
		"LOCATION_OUT_OF_RANGE",
		"Location is outside of the covered area",
		http.StatusBadRequest,
	)

	ErrDatasetUnavailable = New(
		"DATASET_UNAVAILABLE",
		"Crime dataset is not available",
		http.StatusServiceUnavailable,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Missing or invalid API key",
		http.StatusUnauthorized,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
