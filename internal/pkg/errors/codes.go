package errors

var (
	ErrNoElevationData = New(
		"NO_ELEVATION_DATA",
		"Wireframe has no points with elevation",
	)

	ErrInsufficientGroundGeometry = New(
		"INSUFFICIENT_GROUND_GEOMETRY",
		"Fewer than 3 usable ground points or segments",
	)

	ErrGeometryRepairFailure = New(
		"GEOMETRY_REPAIR_FAILURE",
		"Self-intersection repair did not yield a valid polygon",
	)

	ErrGeometryFault = New(
		"GEOMETRY_FAULT",
		"Unexpected geometry operation fault",
	)

	ErrDatasetNotFound = New(
		"DATASET_NOT_FOUND",
		"Input dataset file not found",
	)

	ErrInvalidGeometryType = New(
		"INVALID_GEOMETRY_TYPE",
		"Feature geometry is not a line geometry",
	)

	ErrUnsupportedCRS = New(
		"UNSUPPORTED_CRS",
		"Source coordinate reference system is not supported",
	)

	ErrRenderFailure = New(
		"RENDER_FAILURE",
		"Failed to render output",
	)

	ErrEmptyBatch = New(
		"EMPTY_BATCH",
		"No valid footprints after reconstruction",
	)
)
