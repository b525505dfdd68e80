package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrPersistence  = fmt.Errorf("persistence failed")
	ErrConstruction = fmt.Errorf("store initialization failed")

	// Filesystem errors
	ErrRenameFailed  = fmt.Errorf("rename failed")
	ErrNameCollision = fmt.Errorf("target name already exists")
	ErrNotFound      = fmt.Errorf("not found")
	ErrNotAnImage    = fmt.Errorf("not a supported image file")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
