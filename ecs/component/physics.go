package component

import "github.com/milk9111/impulse/physics"

// PhysicsBody binds an entity to a body. The body is added to the engine
// world when first seen and removed again once the entity or this component
// goes away.
type PhysicsBody struct {
	Body *physics.Body
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
