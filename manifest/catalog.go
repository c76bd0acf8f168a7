package manifest

import (
	"iter"
	"slices"
	"strconv"
	"sync"
)

// Variadic is the MaxArgs value of instructions that accept any number of
// trailing arguments.
const Variadic = -1

// InstructionSpec describes one instruction of the manifest language.
type InstructionSpec struct {
	Name string `json:"name"           yaml:"name"`
	// Hint is a canonical snippet that can be inserted in place of the bare
	// name. It is empty when no useful template exists.
	Hint    string `json:"hint,omitempty" yaml:"hint,omitempty"`
	MinArgs int    `json:"min_args"       yaml:"min_args"`
	MaxArgs int    `json:"max_args"       yaml:"max_args"`
}

// Accepts reports whether n arguments satisfy the arity of s.
func (s InstructionSpec) Accepts(n int) bool {
	return n >= s.MinArgs && (s.MaxArgs == Variadic || n <= s.MaxArgs)
}

// Arity describes the accepted argument count in words, e.g. "2",
// "at least 2" or "2 to 3".
func (s InstructionSpec) Arity() string {
	switch {
	case s.MaxArgs == Variadic:
		return "at least " + strconv.Itoa(s.MinArgs)
	case s.MinArgs == s.MaxArgs:
		return strconv.Itoa(s.MinArgs)
	default:
		return strconv.Itoa(s.MinArgs) + " to " + strconv.Itoa(s.MaxArgs)
	}
}

func fixed(name string, n int, hint string) InstructionSpec {
	return InstructionSpec{Name: name, Hint: hint, MinArgs: n, MaxArgs: n}
}

func variadic(name string, n int, hint string) InstructionSpec {
	return InstructionSpec{Name: name, Hint: hint, MinArgs: n, MaxArgs: Variadic}
}

// resourceRoles is shared by the resource creation hints.
const resourceRoles = `
    Tuple(
        Some(Tuple(Some(Enum<AccessRule::AllowAll>()), Some(Enum<AccessRule::DenyAll>()))),
        None,
        None,
        None,
        None,
        None
    )
    Tuple(
        Map<String, Tuple>(
            "name" => Tuple(Some(Enum<Metadata::String>("NAME")), true)
        ),
        Map<String, Enum>(
            "metadata_setter" => Some(Enum<AccessRule::AllowAll>()),
            "metadata_setter_updater" => None,
            "metadata_locker" => Some(Enum<AccessRule::DenyAll>()),
            "metadata_locker_updater" => None
        )
    )
    None;`

const nonFungibleSchema = `
    Enum<OwnerRole::None>()
    Enum<NonFungibleIdType::Integer>()
    true
    Enum<0u8>(Enum<0u8>(Tuple(Array<Enum>(), Array<Tuple>(), Array<Enum>())), Enum<0u8>(66u8), Array<String>())`

const protectedRule = `Enum<AccessRule::Protected>(
        Enum<AccessRuleNode::ProofRule>(
            Enum<ProofRule::Require>(
                Enum<ResourceOrNonFungible::NonFungible>(
                    NonFungibleGlobalId("RESOURCE_ADDRESS:#1#")
                )
            )
        )
    )`

// catalog is built on first use and never modified afterwards.
var catalog = sync.OnceValue(func() map[string]InstructionSpec {
	specs := []InstructionSpec{
		fixed("ALLOCATE_GLOBAL_ADDRESS", 4, ""),
		fixed("ASSERT_WORKTOP_CONTAINS", 2, `ASSERT_WORKTOP_CONTAINS
    Address("RESOURCE_ADDRESS")
    Decimal("AMOUNT");`),
		fixed("ASSERT_WORKTOP_CONTAINS_ANY", 1, `ASSERT_WORKTOP_CONTAINS_ANY
    Address("RESOURCE_ADDRESS");`),
		fixed("ASSERT_WORKTOP_CONTAINS_NON_FUNGIBLES", 2, `ASSERT_WORKTOP_CONTAINS_NON_FUNGIBLES
    Address("RESOURCE_ADDRESS")
    Array<NonFungibleLocalId>(NonFungibleLocalId("#1#"));`),
		fixed("BURN_RESOURCE", 1, `BURN_RESOURCE
    Bucket("BUCKET");`),
		variadic("CALL_FUNCTION", 3, `CALL_FUNCTION Address("") "BLUEPRINT_NAME" "FUNCTION_NAME";`),
		variadic("CALL_METHOD", 2, `CALL_METHOD Address("") "METHOD_NAME";`),
		variadic("CALL_ROYALTY_METHOD", 2, `CALL_ROYALTY_METHOD Address("") "METHOD_NAME";`),
		variadic("CALL_METADATA_METHOD", 2, `CALL_METADATA_METHOD Address("") "METHOD_NAME";`),
		variadic("CALL_ROLE_ASSIGNMENT_METHOD", 2, `CALL_ROLE_ASSIGNMENT_METHOD Address("") "METHOD_NAME";`),
		variadic("CALL_DIRECT_VAULT_METHOD", 2, `CALL_DIRECT_VAULT_METHOD Address("INTERNAL_VAULT_ADDRESS") "METHOD_NAME";`),
		fixed("CLAIM_COMPONENT_ROYALTIES", 1, `CLAIM_COMPONENT_ROYALTIES
    Address("COMPONENT_ADDRESS");`),
		fixed("CLAIM_PACKAGE_ROYALTIES", 1, `CLAIM_PACKAGE_ROYALTIES
    Address("PACKAGE_ADDRESS");`),
		fixed("CLEAR_AUTH_ZONE", 0, `CLEAR_AUTH_ZONE;`),
		fixed("CLEAR_SIGNATURE_PROOFS", 0, `CLEAR_SIGNATURE_PROOFS;`),
		fixed("CLONE_PROOF", 2, `CLONE_PROOF
    Proof("PROOF")
    Proof("CLONED_PROOF");`),
		fixed("CREATE_ACCESS_CONTROLLER", 4, `CREATE_ACCESS_CONTROLLER
    Bucket("BUCKET")
    Tuple(Enum<1u8>(), Enum<1u8>(), Enum<1u8>())
    None
    None;`),
		fixed("CREATE_ACCOUNT", 0, ""),
		fixed("CREATE_ACCOUNT_ADVANCED", 2, ""),
		fixed("CREATE_FUNGIBLE_RESOURCE", 6, `CREATE_FUNGIBLE_RESOURCE
    Enum<OwnerRole::None>()
    true
    18u8`+resourceRoles),
		fixed("CREATE_FUNGIBLE_RESOURCE_WITH_INITIAL_SUPPLY", 7, `CREATE_FUNGIBLE_RESOURCE_WITH_INITIAL_SUPPLY
    Enum<OwnerRole::None>()
    true
    18u8
    Decimal("10000")`+resourceRoles),
		fixed("CREATE_IDENTITY", 0, ""),
		fixed("CREATE_IDENTITY_ADVANCED", 1, ""),
		fixed("CREATE_NON_FUNGIBLE_RESOURCE", 7, `CREATE_NON_FUNGIBLE_RESOURCE`+
			nonFungibleSchema+resourceRoles),
		fixed("CREATE_NON_FUNGIBLE_RESOURCE_WITH_INITIAL_SUPPLY", 8, `CREATE_NON_FUNGIBLE_RESOURCE_WITH_INITIAL_SUPPLY`+
			nonFungibleSchema+`
    Map<NonFungibleLocalId, Tuple>(
        NonFungibleLocalId("#1#") => Tuple(Tuple())
    )`+resourceRoles),
		fixed("CREATE_PROOF_FROM_AUTH_ZONE_OF_ALL", 2, `CREATE_PROOF_FROM_AUTH_ZONE_OF_ALL
    Address("RESOURCE_ADDRESS")
    Proof("PROOF");`),
		fixed("CREATE_PROOF_FROM_AUTH_ZONE_OF_AMOUNT", 3, `CREATE_PROOF_FROM_AUTH_ZONE_OF_AMOUNT
    Address("RESOURCE_ADDRESS")
    Decimal("1")
    Proof("PROOF");`),
		fixed("CREATE_PROOF_FROM_AUTH_ZONE_OF_NON_FUNGIBLES", 3, `CREATE_PROOF_FROM_AUTH_ZONE_OF_NON_FUNGIBLES
    Address("RESOURCE_ADDRESS")
    Array<NonFungibleLocalId>(NonFungibleLocalId("#1#"))
    Proof("PROOF");`),
		fixed("CREATE_PROOF_FROM_BUCKET_OF_ALL", 2, `CREATE_PROOF_FROM_BUCKET_OF_ALL
    Bucket("BUCKET")
    Proof("PROOF");`),
		fixed("CREATE_PROOF_FROM_BUCKET_OF_AMOUNT", 3, `CREATE_PROOF_FROM_BUCKET_OF_AMOUNT
    Bucket("BUCKET")
    Decimal("1")
    Proof("PROOF");`),
		fixed("CREATE_PROOF_FROM_BUCKET_OF_NON_FUNGIBLES", 3, `CREATE_PROOF_FROM_BUCKET_OF_NON_FUNGIBLES
    Bucket("BUCKET")
    Array<NonFungibleLocalId>(NonFungibleLocalId("#1#"))
    Proof("PROOF");`),
		fixed("DROP_ALL_PROOFS", 0, `DROP_ALL_PROOFS;`),
		fixed("DROP_AUTH_ZONE_PROOFS", 0, `DROP_AUTH_ZONE_PROOFS;`),
		fixed("DROP_AUTH_ZONE_REGULAR_PROOFS", 0, `DROP_AUTH_ZONE_REGULAR_PROOFS;`),
		fixed("DROP_AUTH_ZONE_SIGNATURE_PROOFS", 0, `DROP_AUTH_ZONE_SIGNATURE_PROOFS;`),
		fixed("DROP_NAMED_PROOFS", 0, `DROP_NAMED_PROOFS;`),
		fixed("DROP_PROOF", 1, `DROP_PROOF
    Proof("PROOF");`),
		fixed("FREEZE_VAULT", 2, `FREEZE_VAULT
    Address("INTERNAL_VAULT_ADDRESS")
    Tuple(7u32);`),
		fixed("LOCK_COMPONENT_ROYALTY", 2, `LOCK_COMPONENT_ROYALTY
    Address("COMPONENT_ADDRESS")
    "METHOD_NAME";`),
		fixed("LOCK_METADATA", 2, `LOCK_METADATA
    Address("ADDRESS")
    "FIELD_NAME";`),
		fixed("LOCK_OWNER_ROLE", 1, `LOCK_OWNER_ROLE
    Address("ADDRESS");`),
		fixed("LOCK_ROLE", 3, `LOCK_ROLE
    Address("ADDRESS")
    Enum<ModuleId::Main>()
    "ROLE_NAME";`),
		fixed("MINT_FUNGIBLE", 2, `MINT_FUNGIBLE
    Address("RESOURCE_ADDRESS")
    Decimal("1");`),
		fixed("MINT_NON_FUNGIBLE", 2, `MINT_NON_FUNGIBLE
    Address("RESOURCE_ADDRESS")
    Map<NonFungibleLocalId, Tuple>(
        NonFungibleLocalId("#1#") => Tuple(Tuple())
    );`),
		fixed("MINT_RUID_NON_FUNGIBLE", 2, `MINT_RUID_NON_FUNGIBLE
    Address("RESOURCE_ADDRESS")
    Array<Tuple>(Tuple(Tuple()));`),
		fixed("POP_FROM_AUTH_ZONE", 1, `POP_FROM_AUTH_ZONE
    Proof("PROOF");`),
		fixed("PUBLISH_PACKAGE", 3, ""),
		fixed("PUBLISH_PACKAGE_ADVANCED", 5, ""),
		fixed("PUSH_TO_AUTH_ZONE", 1, `PUSH_TO_AUTH_ZONE
    Proof("PROOF");`),
		fixed("RECALL_FROM_VAULT", 2, `RECALL_FROM_VAULT
    Address("INTERNAL_VAULT_ADDRESS")
    Decimal("1");`),
		fixed("RECALL_NON_FUNGIBLES_FROM_VAULT", 2, `RECALL_NON_FUNGIBLES_FROM_VAULT
    Address("INTERNAL_VAULT_ADDRESS")
    Array<NonFungibleLocalId>(NonFungibleLocalId("#1#"));`),
		fixed("REMOVE_METADATA", 2, `REMOVE_METADATA
    Address("ADDRESS")
    "FIELD_NAME";`),
		fixed("RETURN_TO_WORKTOP", 1, `RETURN_TO_WORKTOP
    Bucket("BUCKET");`),
		fixed("SET_COMPONENT_ROYALTY", 3, `SET_COMPONENT_ROYALTY
    Address("COMPONENT_ADDRESS")
    "METHOD_NAME"
    Enum<RoyaltyAmount::Free>();`),
		fixed("SET_METADATA", 3, `SET_METADATA
    Address("ADDRESS")
    "FIELD_NAME"
    Enum<Metadata::String>("VALUE");`),
		fixed("SET_OWNER_ROLE", 2, `SET_OWNER_ROLE
    Address("ADDRESS")
    `+protectedRule+`;`),
		fixed("SET_ROLE", 4, `SET_ROLE
    Address("ADDRESS")
    Enum<ModuleId::Main>()
    "ROLE_NAME"
    `+protectedRule+`;`),
		fixed("TAKE_ALL_FROM_WORKTOP", 2, `TAKE_ALL_FROM_WORKTOP
    Address("RESOURCE_ADDRESS")
    Bucket("BUCKET");`),
		fixed("TAKE_FROM_WORKTOP", 3, `TAKE_FROM_WORKTOP
    Address("RESOURCE_ADDRESS")
    Decimal("1")
    Bucket("BUCKET");`),
		fixed("TAKE_NON_FUNGIBLES_FROM_WORKTOP", 3, `TAKE_NON_FUNGIBLES_FROM_WORKTOP
    Address("RESOURCE_ADDRESS")
    Array<NonFungibleLocalId>(NonFungibleLocalId("#1#"))
    Bucket("BUCKET");`),
		fixed("UNFREEZE_VAULT", 2, `UNFREEZE_VAULT
    Address("INTERNAL_VAULT_ADDRESS")
    Tuple(7u32);`),
	}

	m := make(map[string]InstructionSpec, len(specs))
	for _, s := range specs {
		assertf(isKeyword(s.Name), "instruction %q is not keyword-shaped", s.Name)
		assertf(m[s.Name].Name == "", "instruction %q defined twice", s.Name)
		m[s.Name] = s
	}

	return m
})

var sortedNames = sync.OnceValue(func() []string {
	names := make([]string, 0, len(catalog()))
	for name := range catalog() {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
})

// Lookup returns the catalog entry for the instruction name. Matching is
// exact and case-sensitive.
func Lookup(name string) (InstructionSpec, bool) {
	s, ok := catalog()[name]

	return s, ok
}

// IsKnown reports whether name is an instruction in the catalog.
func IsKnown(name string) bool {
	_, ok := catalog()[name]

	return ok
}

// Names returns every instruction name in lexical order. The caller owns the
// returned slice.
func Names() []string { return slices.Clone(sortedNames()) }

// Instructions returns an iterator over the catalog in name order.
func Instructions() iter.Seq[InstructionSpec] {
	return func(yield func(InstructionSpec) bool) {
		m := catalog()
		for _, name := range sortedNames() {
			if !yield(m[name]) {
				return
			}
		}
	}
}

// valueTypes is the set of element types that may parameterize Array and
// Map.
var valueTypes = []string{
	"String", "NonFungibleGlobalId", "NonFungibleLocalId", "Tuple",
	"U8", "U16", "U32", "U64", "U128", "I128", "Bool", "Decimal",
	"Address", "Bucket", "Proof", "Blob", "PreciseDecimal", "Bytes", "Array",
}

// ValueTypes returns the valid value-type names.
func ValueTypes() []string { return slices.Clone(valueTypes) }

// IsValueType reports whether name is a valid value-type name.
func IsValueType(name string) bool { return slices.Contains(valueTypes, name) }

// Object is a constructor name offered by completion tooling.
type Object struct {
	Name string
	Hint string
}

var objects = []Object{
	{Name: "Address", Hint: `Address("")`},
	{Name: "Array", Hint: "Array<>()"},
	{Name: "Bucket", Hint: `Bucket("")`},
	{Name: "Decimal", Hint: `Decimal("")`},
	{Name: "Enum", Hint: "Enum<>()"},
	{Name: "Expression", Hint: `Expression("ENTIRE_WORKTOP")`},
	{Name: "Map", Hint: "Map<, >()"},
	{Name: "NonFungibleGlobalId", Hint: `NonFungibleGlobalId("")`},
	{Name: "NonFungibleLocalId", Hint: `NonFungibleLocalId("")`},
	{Name: "Proof", Hint: `Proof("")`},
	{Name: "Tuple", Hint: "Tuple()"},
}

// Objects returns the constructor names known to completion tooling.
func Objects() []Object { return slices.Clone(objects) }

var enumVariants = []string{
	"OwnerRole::None",
	"OwnerRole::Fixed",
	"OwnerRole::Updatable",
	"AccessRule::Protected",
	"AccessRule::AllowAll",
	"AccessRule::DenyAll",
	"AccessRuleNode::ProofRule",
	"ProofRule::Require",
	"ResourceOrNonFungible::NonFungible",
	"ModuleId::Main",
	"ModuleId::Metadata",
	"ModuleId::Royalty",
	"ModuleId::RoleAssignment",
	"RoyaltyAmount::Free",
	"Metadata::String",
	"Metadata::Bool",
	"Metadata::U8",
	"Metadata::U32",
	"Metadata::U64",
	"Metadata::I32",
	"Metadata::I64",
	"Metadata::Decimal",
	"Metadata::Address",
	"Metadata::PublicKey",
	"Metadata::NonFungibleGlobalId",
	"Metadata::NonFungibleLocalId",
	"Metadata::Instant",
	"Metadata::Url",
	"Metadata::Origin",
	"Metadata::PublicKeyHash",
	"Metadata::StringArray",
}

// EnumVariants returns well-known enum variant names.
func EnumVariants() []string { return slices.Clone(enumVariants) }
