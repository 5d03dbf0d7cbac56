/*
Package log provides structured logging for the engine using zerolog.

It wraps zerolog to give every subsystem — store tiers, transaction
managers, the executor, interceptors — a consistent JSON-by-default logger
with component- and request-scoped child loggers, rather than a hidden
global passed implicitly through init-order side effects.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, Output: os.Stdout})

	storeLog := log.WithComponent("mvs")
	storeLog.Info().Uint64("commit_version", 42).Msg("committed")

	txLog := log.WithTxID(txID)
	txLog.Warn().Msg("conflict detected, retrying")

Component loggers (WithComponent) scope a logger to one engine subsystem;
WithTxID/WithCommitVersion/WithSourceID scope to one transaction, commit
version, or physical source respectively, for correlating log lines across
a transaction's lifetime or a source's history. Set Config.Console for
human-readable console output during local development; JSON is the
default, suited to log aggregation in production.
*/
package log
