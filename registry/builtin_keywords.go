package registry

// builtinKeywords returns the shipped field catalog (spec §6.1). Every
// recognized keyword maps to a typed per-atom column; synonyms are
// additional spellings accepted for the same column, largely drawn from
// PDB and mmCIF naming conventions.
func builtinKeywords() []Keyword {
	return []Keyword{
		{Name: "serial", Type: FieldInt, Synonyms: []string{"id"}, Description: "atom serial number"},
		{Name: "resid", Type: FieldInt, Synonyms: []string{"label_seq_id", "resseq"}, Description: "residue sequence number"},
		{Name: "chain", Type: FieldString, Synonyms: []string{"chid", "chainid", "label_asym_id"}, Description: "chain identifier"},
		{Name: "model", Type: FieldInt, Description: "model number"},
		{Name: "index", Type: FieldInt, Description: "zero-based atom index"},
		{Name: "residue", Type: FieldInt, Description: "internal residue group number"},
		{Name: "fragment", Type: FieldInt, Synonyms: []string{"chindex", "chain_index"}, Description: "bonded-component fragment number"},
		{Name: "frame", Type: FieldInt, Description: "trajectory frame number"},
		{Name: "name", Type: FieldString, Synonyms: []string{"label_atom_id"}, Description: "atom name"},
		{Name: "resname", Type: FieldString, Synonyms: []string{"label_comp_id"}, Description: "residue name"},
		{Name: "recname", Type: FieldString, Synonyms: []string{"atom", "hetatm"}, Description: "record type (ATOM/HETATM)"},
		{Name: "icode", Type: FieldString, Description: "insertion code"},
		{Name: "altloc", Type: FieldString, Description: "alternate location indicator"},
		{Name: "x", Type: FieldFloat, Synonyms: []string{"Cartn_x"}, Description: "x coordinate"},
		{Name: "y", Type: FieldFloat, Synonyms: []string{"Cartn_y"}, Description: "y coordinate"},
		{Name: "z", Type: FieldFloat, Synonyms: []string{"Cartn_z"}, Description: "z coordinate"},
		{Name: "occupancy", Type: FieldFloat, Description: "occupancy"},
		{Name: "beta", Type: FieldFloat, Synonyms: []string{"B_iso_or_equiv", "tempfactor"}, Description: "B-factor"},
		{Name: "charge", Type: FieldFloat, Description: "partial charge"},
		{Name: "element", Type: FieldString, Synonyms: []string{"type_symbol", "symbol"}, Description: "element symbol"},
		{Name: "segment", Type: FieldString, Synonyms: []string{"segname"}, Description: "segment identifier"},
		{Name: "type", Type: FieldString, Description: "force-field atom type"},
		{Name: "mass", Type: FieldFloat, Description: "atomic mass"},
		{Name: "atomicnumber", Type: FieldInt, Description: "atomic number"},
		{Name: "bonds", Type: FieldInt, Synonyms: []string{"numbonds"}, Description: "number of bonded neighbors"},
		{Name: "radius", Type: FieldFloat, Synonyms: []string{"radii"}, Description: "atomic radius"},
		{Name: "anisotropy", Type: FieldFloat, Synonyms: []string{"siguij"}, Description: "anisotropic displacement"},
		{Name: "vx", Type: FieldFloat, Description: "x velocity"},
		{Name: "vy", Type: FieldFloat, Description: "y velocity"},
		{Name: "vz", Type: FieldFloat, Description: "z velocity"},
		{Name: "fx", Type: FieldFloat, Description: "x force"},
		{Name: "fy", Type: FieldFloat, Description: "y force"},
		{Name: "fz", Type: FieldFloat, Description: "z force"},
		{Name: "ufx", Type: FieldFloat, Description: "x user force"},
		{Name: "ufy", Type: FieldFloat, Description: "y user force"},
		{Name: "ufz", Type: FieldFloat, Description: "z user force"},
		{Name: "secondary", Type: FieldString, Synonyms: []string{"structure"}, Description: "secondary structure code"},
		{Name: "phi", Type: FieldFloat, Description: "backbone phi dihedral"},
		{Name: "psi", Type: FieldFloat, Description: "backbone psi dihedral"},
		{Name: "auth_asym_id", Type: FieldString, Description: "author chain identifier"},
		{Name: "auth_atom_id", Type: FieldString, Description: "author atom name"},
		{Name: "auth_comp_id", Type: FieldString, Description: "author residue name"},
		{Name: "auth_seq_id", Type: FieldInt, Description: "author residue sequence number"},
		{Name: "pfrag", Type: FieldInt, Description: "previous fragment number"},
		{Name: "nfrag", Type: FieldInt, Description: "next fragment number"},
	}
}
