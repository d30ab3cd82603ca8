package runpipeline

import "errors"

// ErrBailOut is returned by RunOne when the test emitted "Bail out!". The
// caller driving multiple test executables must stop scheduling any
// further ones and exit non-zero.
var ErrBailOut = errors.New("runpipeline: test bailed out")
