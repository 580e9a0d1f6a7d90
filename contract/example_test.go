package contract_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/guardops/contract"
)

func ExampleRequire() {
	withdraw := func(balance, amount int64) error {
		if err := contract.Require(amount > 0, "amount %d must be positive", amount); err != nil {
			return err
		}
		remaining := balance - amount
		return contract.Ensure(remaining >= 0, "balance %d overdrawn", remaining)
	}

	fmt.Println(withdraw(100, 40))
	fmt.Println(withdraw(100, -1))
	fmt.Println(withdraw(100, 150))
	// Output:
	// <nil>
	// contract: precondition violated: amount -1 must be positive
	// contract: postcondition violated: balance -50 overdrawn
}

func ExampleInvariant() {
	tokens, capacity := 12.0, 10.0

	err := contract.Invariant(tokens <= capacity, "tokens %.1f above capacity %.1f", tokens, capacity)
	fmt.Println(errors.Is(err, contract.ErrViolation))
	fmt.Println(err)
	// Output:
	// true
	// contract: invariant violated: tokens 12.0 above capacity 10.0
}

func ExampleCheck() {
	ledgerOpen := true
	op := contract.Check(
		func(ctx context.Context) error {
			fmt.Println("posting entry")
			return nil
		},
		func(ctx context.Context) error {
			return contract.Require(ledgerOpen, "ledger closed for posting")
		},
		nil,
	)

	fmt.Println("error:", op(context.Background()))

	ledgerOpen = false
	fmt.Println("error:", op(context.Background()))
	// Output:
	// posting entry
	// error: <nil>
	// error: contract: precondition violated: ledger closed for posting
}
