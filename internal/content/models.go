package content

import appcontent "github.com/goliatone/go-appcontent/content"

type (
	TemplateContent          = appcontent.TemplateContent
	LocalizedTemplateContent = appcontent.LocalizedTemplateContent
	SlugTrail                = appcontent.SlugTrail
	FlagAssignment           = appcontent.FlagAssignment
	ContentMap               = appcontent.ContentMap
	Value                    = appcontent.Value
	Component                = appcontent.Component
	LinkRef                  = appcontent.LinkRef
)

const (
	ValueKindText       = appcontent.ValueKindText
	ValueKindLink       = appcontent.ValueKindLink
	ValueKindImage      = appcontent.ValueKindImage
	ValueKindComponents = appcontent.ValueKindComponents
)
