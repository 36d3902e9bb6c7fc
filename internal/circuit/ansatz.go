package circuit

// AnsatzParams is the number of angles one ansatz block consumes.
const AnsatzParams = 4

// Ansatz returns the two-qubit block RY, RY, CZ, RY, RY.
func Ansatz(p [AnsatzParams]float64, trainable bool) []Gate {
	return []Gate{
		RY(0, p[0], trainable),
		RY(1, p[1], trainable),
		CZ(0, 1),
		RY(0, p[2], trainable),
		RY(1, p[3], trainable),
	}
}

// AnsatzDagger returns the inverse of Ansatz(p).
func AnsatzDagger(p [AnsatzParams]float64, trainable bool) []Gate {
	return []Gate{
		RY(0, -p[2], trainable),
		RY(1, -p[3], trainable),
		CZ(0, 1),
		RY(0, -p[0], trainable),
		RY(1, -p[1], trainable),
	}
}
