package app

import (
	"github.com/vk/dgrun/internal/registry"
	"github.com/vk/dgrun/modules/pydia"
	"github.com/vk/dgrun/modules/record"
)

// coreModules is the definitive list of all engine modules that are
// compiled into the dgrun binary.
var coreModules = []registry.Module{
	&pydia.Module{},
	&record.Module{},
}
