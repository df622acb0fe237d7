package script

import "errors"

// ErrMalformedScript is returned when a script does not end in a
// recognized contract opcode the way §4.8 step 1 requires.
var ErrMalformedScript = errors.New("script: malformed push-stack script")

// Eval runs script through the restricted push-stack evaluator described
// in §4.8 step 1: every byte up to the first non-push opcode is a length-
// prefixed data push; once OP_CALL or OP_CREATE is reached, the remainder
// of the script (starting at that opcode) is pushed as one final stack
// item, matching neutron.cpp's receiveStack/EvalScript(..., SCRIPT_EXEC_
// BYTE_CODE, ...) behavior where the trailing opcode is recovered from
// the first byte of the last stack item rather than being executed.
//
// This is a restricted evaluator, not a general script interpreter: it
// understands only direct data pushes (length bytes 0-75) and the two
// terminating opcodes: OP_CALL and OP_CREATE. Any other byte it meets
// before a terminator is malformed input.
func Eval(s []byte) ([][]byte, error) {
	var stack [][]byte
	i := 0
	for i < len(s) {
		b := s[i]
		switch Op(b) {
		case OpCall, OpCreate:
			stack = append(stack, s[i:])
			return stack, nil
		}
		if b > 75 {
			return nil, ErrMalformedScript
		}
		end := i + 1 + int(b)
		if end > len(s) {
			return nil, ErrMalformedScript
		}
		stack = append(stack, s[i+1:end])
		i = end
	}
	return nil, ErrMalformedScript
}
