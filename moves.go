package grubix

// Predefined moves for convenience.
//
// Example:
//
//	engine.Apply(grubix.R, grubix.U, grubix.RPrime, grubix.UPrime)
var (
	// Right face moves
	R      = Move{Face: FaceR, Turn: CW}     // Right clockwise
	RPrime = Move{Face: FaceR, Turn: CCW}    // Right counter-clockwise
	R2     = Move{Face: FaceR, Turn: Double} // Right 180

	// Left face moves
	L      = Move{Face: FaceL, Turn: CW}
	LPrime = Move{Face: FaceL, Turn: CCW}
	L2     = Move{Face: FaceL, Turn: Double}

	// Up face moves
	U      = Move{Face: FaceU, Turn: CW}
	UPrime = Move{Face: FaceU, Turn: CCW}
	U2     = Move{Face: FaceU, Turn: Double}

	// Down face moves
	D      = Move{Face: FaceD, Turn: CW}
	DPrime = Move{Face: FaceD, Turn: CCW}
	D2     = Move{Face: FaceD, Turn: Double}

	// Front face moves
	F      = Move{Face: FaceF, Turn: CW}
	FPrime = Move{Face: FaceF, Turn: CCW}
	F2     = Move{Face: FaceF, Turn: Double}

	// Back face moves
	B      = Move{Face: FaceB, Turn: CW}
	BPrime = Move{Face: FaceB, Turn: CCW}
	B2     = Move{Face: FaceB, Turn: Double}

	// Slice moves
	M      = Move{Face: FaceM, Turn: CW} // Middle, follows L
	MPrime = Move{Face: FaceM, Turn: CCW}
	M2     = Move{Face: FaceM, Turn: Double}
	E      = Move{Face: FaceE, Turn: CW} // Equator, follows D
	EPrime = Move{Face: FaceE, Turn: CCW}
	E2     = Move{Face: FaceE, Turn: Double}
	S      = Move{Face: FaceS, Turn: CW} // Standing, follows F
	SPrime = Move{Face: FaceS, Turn: CCW}
	S2     = Move{Face: FaceS, Turn: Double}
)

// Sexy move: R U R' U' - one of the most common algorithms
var SexyMove = []Move{R, U, RPrime, UPrime}

// Inverse sexy move: U R U' R'
var InverseSexyMove = []Move{U, R, UPrime, RPrime}

// T-perm algorithm
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}

