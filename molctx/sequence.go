package molctx

// aminoAcidCodes maps the 20 standard residue names to their one-letter
// code. Any residue not in this table resolves to 'X' (spec §9 "Sequence
// code derivation" open question).
var aminoAcidCodes = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLN": 'Q', "GLU": 'E', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
}

// AminoAcidCode returns the one-letter sequence code for resname, or
// 'X' if resname is not one of the 20 standard amino acids.
func AminoAcidCode(resname string) byte {
	if code, ok := aminoAcidCodes[resname]; ok {
		return code
	}
	return 'X'
}

// BuildChainSequences groups atoms into per-chain, per-residue SeqResidue
// entries from parallel atom-indexed chain/resid/resname columns. Atoms
// are assumed already grouped by contiguous residue runs within a chain
// (the common PDB atom order); residues are ordered by first occurrence.
func BuildChainSequences(chain, resname []string, resid []int) (chains []string, sequences map[string][]SeqResidue) {
	sequences = make(map[string][]SeqResidue)
	seenChain := make(map[string]bool)

	type key struct {
		chain string
		resid int
	}
	var lastKey key
	haveLast := false

	for i := range chain {
		if !seenChain[chain[i]] {
			seenChain[chain[i]] = true
			chains = append(chains, chain[i])
		}

		k := key{chain[i], resid[i]}
		if haveLast && k == lastKey {
			residues := sequences[chain[i]]
			last := &residues[len(residues)-1]
			last.Atoms = append(last.Atoms, i)
			sequences[chain[i]] = residues
			continue
		}

		sequences[chain[i]] = append(sequences[chain[i]], SeqResidue{
			Code:  AminoAcidCode(resname[i]),
			Atoms: []int{i},
		})
		lastKey = k
		haveLast = true
	}
	return chains, sequences
}
