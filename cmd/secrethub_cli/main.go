// Command secrethub_cli is the Ansible binary module that manages the
// SecretHub CLI install.
package main

import (
	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/modules/climodule"
)

func main() {
	ansible.Run(climodule.New())
}
