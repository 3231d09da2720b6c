package symchk

// Association pairs a binary with the symbol file symchk resolved for it.
// Both paths are exactly as symchk printed them.
type Association struct {
	BinaryPath string `json:"binary"`
	SymbolPath string `json:"pdb"`
}
