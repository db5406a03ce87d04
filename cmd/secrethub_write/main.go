// Command secrethub_write is the Ansible binary module that writes a secret.
package main

import (
	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/modules/writemodule"
)

func main() {
	ansible.Run(writemodule.New())
}
