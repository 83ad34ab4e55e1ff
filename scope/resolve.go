package scope

// ResolveIdentifier finds the innermost environment of the chain starting
// at start that declares name. Only HasBinding is consulted, once per
// environment, from start outwards. The returned Reference holds a share
// of the environment it found and must be freed by the caller.
//
// A nil start behaves like an empty chain.
func ResolveIdentifier(start *Environment, name string, strict bool) *Reference {
	for env := start; env != nil; env = env.outer {
		if env.record.HasBinding(name) {
			return newEnvironmentReference(env, name, strict)
		}
	}
	return newUnresolvableReference(name, strict)
}
