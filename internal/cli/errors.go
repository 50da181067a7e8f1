package cli

import "errors"

var errNoPort = errors.New("no gantt backend configured")
