package descriptions

// Tool descriptions shown to MCP clients

const (
	LoadsheetExtractDescription = `Build the crew briefing record from a load sheet PDF.

**When to use:** A load sheet PDF is in the document directory and the captain, crew code and block fuel are known.

**Output:** FLIGHT, A/C, REG, CAPTAIN, CREW, DOW, DOI, DEST, BLOCK FUEL, TAXI FUEL, TAKE OFF FUEL, TRIP FUEL, EET, SEATS QUANTITY and DATE, in that order. TAKE OFF FUEL is block fuel minus taxi fuel and may be negative.

**Examples:**
• "Process loadsheet-FL123.pdf for captain SMITH, crew JDOE, block fuel 15000"
• "Use the fixed profile for old-layout.pdf"

**Notes:** Fields that cannot be located come back empty or 0. Documents with too few lines are rejected. DOI is looked up in the crew table of the aircraft registration and is empty when there is no match.`

	LoadsheetLinesDescription = `List the text lines of a load sheet PDF with their zero-based line numbers.

**When to use:** A report does not extract as expected, or a new layout needs a profile. Profile offsets refer to the numbers printed here.`

	LoadsheetCrewListDescription = `List the crew identifiers operators can choose from, in reference-file order.`

	LoadsheetProfilesDescription = `List the document profiles (report layouts) available for extraction. The default profile is marked.`
)
