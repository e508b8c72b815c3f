package apperr

// ValidationError reports invalid user input such as an unknown metric name.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// FileError reports a judgment file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return "read file " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func NewFile(path string, err error) *FileError {
	return &FileError{Path: path, Err: err}
}

// ParseError reports content that is not valid JSON or YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "parse: " + e.Err.Error()
	}
	return "parse " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParse(path string, err error) *ParseError {
	return &ParseError{Path: path, Err: err}
}

// SchemaError reports well-formed input that lacks an expected key.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Message
}

func NewSchema(msg string) *SchemaError {
	return &SchemaError{Message: msg}
}

// TransportError reports a failure to reach the search engine at all.
// HTTP error statuses are not transport errors.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return "transport " + e.URL + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransport(url string, err error) *TransportError {
	return &TransportError{URL: url, Err: err}
}
