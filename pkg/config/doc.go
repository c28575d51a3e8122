// Package config manages configuration parsing and validation for rewriterc.
//
//	            +-------------+
//	            |   Config    |
//	            | (Pipelines) |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+ +-----+----+ +-----+----+
//	|   HCL    | |   YAML   | |   JSON   |
//	|  Parser  | |  Parser  | |  Parser  |
//	+----------+ +----------+ +----------+
//
// 🎯 Purpose:
//   - Loads the ordered list of pipelines a run applies
//   - Validates patterns, file sets and steps before anything touches disk
//   - Keeps step order exactly as written
//
// 🔄 Flow:
//  1. Picks a parser from the file extension
//  2. Decodes pipelines, files blocks and steps
//  3. Validates and fills defaults (syntax "auto")
//
// 📝 HCL layout:
//
//	root = "../addons/evm"
//
//	pipeline "fixture-fields" {
//	  syntax           = "hcl"
//	  skip_if_contains = ["# migrated"]
//
//	  files {
//	    include = ["fixtures/**/*.tx"]
//	    exclude = ["legacy_*.tx"]
//	  }
//
//	  rewrite "rename-abi" {
//	    block = "^\\s*action\\s+\"[^\"]+\"\\s+\"evm::call_contract\""
//	    rule {
//	      pattern = "(?m)^(\\s*)abi(\\s*)="
//	      replace = "$${1}contract_abi$${2}="
//	    }
//	  }
//
//	  insert "contract_abi" {
//	    block   = "^\\s*action\\s+\"[^\"]+\"\\s+\"evm::call_contract\""
//	    field   = "contract_abi"
//	    anchor  = "contract_address"
//	    default = "action.deploy.contract_abi"
//	    fallback {
//	      contains = "getValue"
//	      value    = "variable.getter_abi"
//	    }
//	  }
//	}
//
// ⚠️ HCL strings interpolate "${...}", so group references in replace templates
// are written "$1" or "$${1}". Heredocs skip backslash escapes, which keeps long
// patterns readable. The functions format, join, jsonencode, lower, upper,
// replace, trimspace and quotemeta are available in expressions.
//
// 📝 YAML and JSON use the same fields, with steps as a list:
//
//	pipelines:
//	  - name: fixture-fields
//	    files:
//	      include: ["fixtures/**/*.tx"]
//	    steps:
//	      - rewrite:
//	          name: rename-abi
//	          rules:
//	            - pattern: 'abi ='
//	              replace: 'contract_abi ='
package config
