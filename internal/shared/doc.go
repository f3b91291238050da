// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the dataset fixtures and the
// slog capture handler the package tests share.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    table := testutil.SampleTable()
//	    // ...
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
