// Package features turns cleaned transactions and estimate requests into
// the numeric vectors the regression models consume.
//
// The same derivation runs at training and at serving time: FromTransaction
// feeds the trainer, FromRequest feeds the web service, and both flow
// through the same Deriver so feature order and encoding can never drift
// between the two paths. Categorical columns use a fitted Encoder with an
// explicit other-bucket, and continuous columns are standardized by a
// median/IQR RobustScaler that tolerates the heavy tails of price data.
package features
