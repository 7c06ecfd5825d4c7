package app

import (
	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/modules/core"
)

// coreModules is the definitive list of all action modules that are
// compiled into the planforge binary.
var coreModules = []action.Module{
	&core.Module{},
}
