package typeregistry

// HCL schema for type manifest files. Hosts extend the builtin catalog by
// dropping .hcl manifests into the types path; the engine itself never bakes
// host-specific names into code.

// manifestFile is the top-level structure of one manifest file.
type manifestFile struct {
	Structs     []*structBlock     `hcl:"struct,block"`
	Enums       []*enumBlock       `hcl:"enum,block"`
	Classes     []*classBlock      `hcl:"class,block"`
	Interfaces  []*interfaceBlock  `hcl:"interface,block"`
	Conversions []*conversionBlock `hcl:"conversion,block"`
	Aliases     []*aliasBlock      `hcl:"alias,block"`
}

// structBlock declares a value struct and its ordered fields.
type structBlock struct {
	Name   string        `hcl:"name,label"`
	Fields []*fieldBlock `hcl:"field,block"`
}

// fieldBlock declares one struct field; its type uses the descriptor grammar.
type fieldBlock struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

// enumBlock declares an enumeration and its value names.
type enumBlock struct {
	Name   string   `hcl:"name,label"`
	Values []string `hcl:"values"`
}

// classBlock declares a class name usable in object/class/soft references.
type classBlock struct {
	Name string `hcl:"name,label"`
}

// interfaceBlock declares an interface name.
type interfaceBlock struct {
	Name string `hcl:"name,label"`
}

// conversionBlock declares one implicit conversion between two descriptors.
type conversionBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// aliasBlock binds a shorthand keyword to a descriptor.
type aliasBlock struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}
