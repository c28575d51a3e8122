package text_test

import (
	"context"
	"fmt"
	"regexp"

	"github.com/walteh/rewriterc/pkg/text"
)

func ExampleRewrite() {
	rules := []text.Rule{
		text.MustRule(`\.execute_runbook\(\)`, ".execute()"),
		text.MustRule(`\.execute\(\)`, ".execute().await"),
	}

	fmt.Println(text.Rewrite("let result = harness.execute_runbook();", rules))

	// Output:
	// let result = harness.execute().await;
}

func ExampleRewriteInBlocks() {
	content := `action "a" "evm::send_eth" {
  from = "0x1"
}
action "b" "evm::call_contract" {
  from = "0x1"
}
`
	header := regexp.MustCompile(`^action\s+"[^"]+"\s+"evm::send_eth"`)
	rules := []text.Rule{text.MustRule(`from =`, "signer =")}

	fmt.Print(text.RewriteInBlocks(content, header, text.SyntaxHCL, rules))

	// Output:
	// action "a" "evm::send_eth" {
	//   signer = "0x1"
	// }
	// action "b" "evm::call_contract" {
	//   from = "0x1"
	// }
}

func ExampleFieldInserter_Insert() {
	inserter, err := text.NewFieldInserter(
		"contract_abi",
		regexp.MustCompile(`^action\s+"[^"]+"\s+"evm::call_contract"`),
		"contract_abi",
		"contract_address",
		"action.deploy.contract_abi",
		[]text.Fallback{{Marker: "getValue", Value: "variable.getter_abi"}},
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	content := `action "read" "evm::call_contract" {
    contract_address = action.deploy.contract_address
    function_name = "getValue"
}
`
	out, n := inserter.Insert(context.Background(), content, text.SyntaxHCL)
	fmt.Print(out)
	fmt.Printf("Inserted: %d\n", n)

	// Output:
	// action "read" "evm::call_contract" {
	//     contract_address = action.deploy.contract_address
	//     contract_abi = variable.getter_abi
	//     function_name = "getValue"
	// }
	// Inserted: 1
}
