// Package vars manages the named values substituted into manifest text.
//
// Variables live in ordered [Table] values that are loaded from YAML files,
// layered with [Merge] on top of the per-network [Defaults], and finally
// resolved into a [manifest.VariableMap]. An entry may hold a literal value
// or an expr-lang expression evaluated against the selected network:
//
//	account: account_tdx_2_1...
//	faucet:
//	  expr: '"component_" + hrp + "1cptxxxxxxxxxfaucetxxxxxxxxx000527798379xxxxxxxxxyulkzl"'
//	fee_resource:
//	  expr: xrd
//	  readonly: true
package vars
