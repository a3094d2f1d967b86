package app

import "fmt"

// MissingPackageError reports that the analysis package could not be
// imported and names the run description the operator should edit.
type MissingPackageError struct {
	Source string
	Err    error
}

func (e *MissingPackageError) Error() string {
	return fmt.Sprintf("%v. Edit %s to proceed with calculation", e.Err, e.Source)
}

func (e *MissingPackageError) Unwrap() error {
	return e.Err
}
