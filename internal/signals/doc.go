// Package signals derives per-ticker momentum metrics from stored daily
// closes: trailing returns, moving averages, Wilder RSI, a volatility proxy,
// a volume-surge ratio, and the composite momentum score the index rebalance
// ranks on.
package signals
