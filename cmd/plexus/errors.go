package main

import "errors"

var errNoDescriptors = errors.New("no descriptor file: pass one as argument or set descriptors in the config")
