// Package diagnostic provides the ordered diagnostic log produced while
// resolving mapping pairs.
//
// Key capabilities:
//   - Error kinds for every resolution and validation failure
//   - Source locations pointing at the directive or declaration at fault
//   - Name suggestions for members that could not be found
//   - Ordered accumulation so one run reports every defect
package diagnostic
