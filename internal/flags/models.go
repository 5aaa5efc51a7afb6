package flags

import appcontent "github.com/goliatone/go-appcontent/content"

type FlagAssignment = appcontent.FlagAssignment
