package video

// IndexCreationError indicates the upstream returned no index identifier.
type IndexCreationError struct{}

func (e *IndexCreationError) Error() string {
	return "failed to create an index"
}

// UploadError indicates the asset upload returned no asset identifier.
type UploadError struct{}

func (e *UploadError) Error() string {
	return "upload succeeded but no asset id returned"
}

// IndexedAssetError indicates submitting the asset for indexing returned no
// job identifier.
type IndexedAssetError struct{}

func (e *IndexedAssetError) Error() string {
	return "failed to create indexed asset"
}
