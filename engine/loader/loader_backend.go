package loader

// source is one fetched asset handed to a decoding backend.
type source struct {
	// name is the path or URL as requested.
	name string
	// path is the resolved local file path, empty for remote assets.
	path string
	data []byte
}

// loaderBackend decodes one kind of asset from fetched bytes.
// Backends hold no per-request state and are shared by all workers.
type loaderBackend[T any] interface {
	// Decode turns the fetched asset into its in-memory form.
	//
	// Parameters:
	//   - src: the fetched asset
	//
	// Returns:
	//   - T: the decoded resource
	//   - error: error if the data is malformed or unsupported
	Decode(src source) (T, error)
}
