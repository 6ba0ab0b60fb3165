// Package account owns local accounts and the resolution of federated
// identities to them.
//
// A provider login yields an externalprovider.ExternalUserInfo. ResolveIdentity
// looks the email up (case-insensitively), creates a standard-role account on
// first sight and otherwise refreshes the stored name. Role and ID are never
// changed by a login.
//
//	repo, err := account.NewAccountRepository("postgres", account.RepositoryConfig{DB: pool})
//	svc := account.NewAccountService(repo)
//	acct, err := svc.ResolveIdentity(ctx, *info)
//	p := acct.Principal()
package account
