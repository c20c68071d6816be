/*
Package wallet manages wallet records and the money-in/money-out paths.

Balances are never stored: every query is an aggregate over the append-only
ledger. Deposits append a credit entry directly. Withdrawals run inside the
wallet's exclusive debit section so that the balance read, the sufficiency
check, and the debit append cannot interleave with another debit against
the same wallet:

	svc := wallet.NewService(wallets, ledgerSvc, uow, locker, log, metrics)

	w, err := svc.CreateWallet(ctx, "owner-123")
	entry, err := svc.Deposit(ctx, w.ID, decimal.NewFromFloat(100))
	entry, err = svc.Withdraw(ctx, w.ID, decimal.NewFromFloat(40))
	balance, err := svc.CurrentBalance(ctx, w.ID)

Withdrawing exactly the full balance succeeds; only a strictly smaller
balance yields ErrInsufficientFunds, and in that case no entry is written.
*/
package wallet
