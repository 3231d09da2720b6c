package pdbex

// Type selectors understood by pdbex.
const (
	selectAll        = "*" // all types into one output
	selectIndividual = "%" // all types, one file each
)

// Flags shared by every invocation.
var commonFlags = []string{"-k-", "-z-"}

// BuildArgs returns the argv that produces artifact a for pdbPath at out.
func BuildArgs(a Artifact, pdbPath, out string) []string {
	selector := selectAll
	var extra []string

	switch a {
	case All:
		extra = []string{"-f"}
	case AllSorted:
		extra = []string{"-p-", "-f", "-y"}
	case AllFunctions:
		extra = []string{"-n-", "-l-", "-f"}
	case Standalone:
		selector = selectIndividual
		extra = []string{"-p-"}
	}

	args := []string{selector, pdbPath, "-o", out}
	args = append(args, commonFlags...)
	return append(args, extra...)
}

// BuildListArgs returns the argv for list mode, which prints one
// "<kind> <name>;" record per type on stdout.
func BuildListArgs(pdbPath string) []string {
	args := []string{selectAll, pdbPath}
	args = append(args, commonFlags...)
	return append(args, "-l-")
}
