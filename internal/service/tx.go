package service

import "context"

// TxRepositories provides transaction-bound repositories.
type TxRepositories interface {
	Documents() DocumentRepository
}

// TxRunner executes a function within a transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

// inlineTx runs fn directly against repo, for stores without transactions.
type inlineTx struct {
	repo DocumentRepository
}

func (t inlineTx) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	return fn(t)
}

func (t inlineTx) Documents() DocumentRepository {
	return t.repo
}
