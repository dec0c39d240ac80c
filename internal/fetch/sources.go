package fetch

// PublishedSheetURL is the published CSV export of the stats spreadsheet.
const PublishedSheetURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vS7IAyOqipa4SWgcKEiGgma10TlwS5G9knkq0-E-_dvnuualiNR81yreifFISTuZtGu467l8JhROl86/pub?output=csv"

// DefaultRESTTable is the table read from a REST source when none is configured.
const DefaultRESTTable = "trends"

// DefaultSources returns the source list used when nothing is configured.
func DefaultSources() []Source {
	return []Source{
		{Type: TypeCSV, Name: "Published sheet", URL: PublishedSheetURL},
	}
}

// Types returns the built-in source types.
func Types() []string {
	return []string{TypeCSV, TypeREST, TypePostgres}
}
