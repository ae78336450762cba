package domain

// TargetTool is a downstream tool whose input shape drives format and
// field-mapping decisions. The set is closed; adding a write tool means
// adding a constant and a targetTools entry.
type TargetTool int

// Known target tools.
const (
	TargetNone TargetTool = iota
	TargetAddCustomer
	TargetUpdateCustomer
	TargetAddEnvironment
	TargetUpdateChecklistItem
	TargetGenerateAssessment
	TargetAnalyzeData
	TargetExportRecords

	targetToolCount
)

type targetSpec struct {
	name           string
	format         Format
	expectedFields []string
}

// Keep in sync with the parameter schemas of the write tools.
var targetTools = [targetToolCount]targetSpec{
	TargetNone: {},
	TargetAddCustomer: {
		name:   "add_customer",
		format: FormatJSON,
		expectedFields: []string{
			"name", "industry", "region", "contactName", "contactEmail", "goLiveDate", "notes",
		},
	},
	TargetUpdateCustomer: {
		name:   "update_customer",
		format: FormatJSON,
		expectedFields: []string{
			"customerId", "name", "industry", "region", "status", "goLiveDate", "notes",
		},
	},
	TargetAddEnvironment: {
		name:           "add_environment",
		format:         FormatJSON,
		expectedFields: []string{"customerId", "name", "type", "url", "region", "version"},
	},
	TargetUpdateChecklistItem: {
		name:           "update_checklist_item",
		format:         FormatKeyValue,
		expectedFields: []string{"customerId", "itemId", "status", "owner", "dueDate", "notes"},
	},
	TargetGenerateAssessment: {name: "generate_assessment", format: FormatMarkdown},
	TargetAnalyzeData:        {name: "analyze_data", format: FormatSummary},
	TargetExportRecords:      {name: "export_records", format: FormatCSV},
}

// LookupTargetTool finds a target tool by its tool name.
func LookupTargetTool(name string) (TargetTool, bool) {
	for t := TargetNone + 1; t < targetToolCount; t++ {
		if targetTools[t].name == name {
			return t, true
		}
	}
	return TargetNone, false
}

// TargetTools lists every registered target tool.
func TargetTools() []TargetTool {
	out := make([]TargetTool, 0, targetToolCount-1)
	for t := TargetNone + 1; t < targetToolCount; t++ {
		out = append(out, t)
	}
	return out
}

// Name returns the tool name, or "" for TargetNone.
func (t TargetTool) Name() string {
	if t <= TargetNone || t >= targetToolCount {
		return ""
	}
	return targetTools[t].name
}

func (t TargetTool) String() string {
	return t.Name()
}

// PreferredFormat returns the format the tool consumes best.
func (t TargetTool) PreferredFormat() (Format, bool) {
	if t <= TargetNone || t >= targetToolCount {
		return "", false
	}
	f := targetTools[t].format
	return f, f != ""
}

// ExpectedFields returns the parameter names of a write tool, or nil.
func (t TargetTool) ExpectedFields() []string {
	if t <= TargetNone || t >= targetToolCount {
		return nil
	}
	fields := targetTools[t].expectedFields
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}
