package application

const (
	unknownName = "Unknown"

	// mentionLookupLimit bounds concurrent repository reads per message.
	mentionLookupLimit = 8

	authorPrefix = "👤 "

	exportSheetName = "Links"
)
